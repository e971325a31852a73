// Package upload sends local files to a dataset.
//
// Sources are expanded from glob patterns ([Discover]). With a prefix every
// file goes up as an extra file ([ResolveExtraTarget]); otherwise each file
// is classified against the naming convention ([Classify]), registered with
// the metadata decoded from its name ([MetaFromRecord]) and then uploaded.
// Files are processed sequentially and one failure does not stop the batch.
package upload
