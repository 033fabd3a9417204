// Package file parses line oriented pseudo files such as /proc/cpuinfo and
// /proc/stat into lines or key/value maps.
//
// A Parser is configured with functional options and can read from a path
// or from bytes that were already captured, for example command output:
//
//	p := file.NewParser(file.WithKVDelimiter(":"), file.WithFirstValueWins(true))
//	info, err := p.GetMap("/proc/cpuinfo")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(info["model name"])
//
// Empty lines are always dropped. Lines starting with '#' are dropped unless
// WithSkipComments(false) is set. Content must be valid UTF-8 and no larger
// than the configured maximum size.
package file
