// Package naming implements the data file naming convention: decoding file
// names into structured records and building compliant names from
// user-supplied metadata.
//
// Two grammars exist:
//
//	metric: <name>_<type>_<start>_<stop>_<count>_<flag>.<ext>[.<compression>]
//	log:    <name>_<start>_<stop>_<count>_<size>_<flag>[.<type>].<compression>
//
// [Parse] tries the grammars in [Grammars] order (metric before log) and
// falls back to [Extra] when none applies. Parsing only checks the shape of
// the embedded dates; [Build] fully normalizes them and rejects a stop time
// earlier than the start time.
//
// Files:
//   - record.go: Kind and the Metric/Log/Extra record variants.
//   - rules.go: the ordered grammar table with per-grammar extraction.
//   - parser.go: Parse.
//   - builder.go: Fields, Build, tail decomposition.
//   - sanitize.go: name component sanitizing.
package naming
