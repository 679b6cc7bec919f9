package formdata

// FileTable maps a logical field on a section to the upload fields that may
// satisfy it, most preferred first (image before pdf).
type FileTable map[string][]string

// MapFiles writes the first uploaded path found for each logical field onto
// target. Fields with no upload are left absent; a nil target is a no-op.
func MapFiles(target map[string]any, table FileTable, uploaded map[string]string) {
	if target == nil {
		return
	}
	for logical, candidates := range table {
		for _, field := range candidates {
			if path := uploaded[field]; path != "" {
				target[logical] = path
				break
			}
		}
	}
}
