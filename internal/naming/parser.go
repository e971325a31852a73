package naming

// Parse classifies a file name against the naming convention. Grammars are
// tried in [Grammars] order and the first successful extraction is
// returned; a name that matches none of them yields [Extra].
//
// Only the shape of the embedded dates is checked. Parse accepts names
// whose stop precedes their start, since existing files may rely on it.
func Parse(filename string) Record {
	for _, g := range Grammars {
		m := g.Pattern.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		if rec, ok := g.Extract(m); ok {
			return rec
		}
	}
	return Extra{}
}
