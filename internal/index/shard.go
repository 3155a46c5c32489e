package index

// ShardPath returns the location of a package's file inside the index.
//
//	1 char   1/<name>
//	2 chars  2/<name>
//	3 chars  3/<first char>/<name>
//	longer   <chars 1-2>/<chars 3-4>/<name>
//
// Names are used as given, without lowercasing. Slicing is by byte; package
// names are ASCII.
func ShardPath(name string) string {
	switch len(name) {
	case 0:
		return ""
	case 1:
		return "1/" + name
	case 2:
		return "2/" + name
	case 3:
		return "3/" + name[:1] + "/" + name
	default:
		return name[:2] + "/" + name[2:4] + "/" + name
	}
}
