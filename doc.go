// Package bhv2 reads BHV2 behavioral data files: the binary container
// format used by MonkeyLogic to serialize MATLAB values (numeric arrays,
// strings, struct arrays, cell arrays) to disk.
//
// The package exposes a strictly sequential streaming session over a file's
// top-level name/value pairs. Each variable can be fully decoded,
// structurally skipped, or selectively decoded (struct variables only, by
// field name) without ever desynchronizing the read cursor:
//
//	f, err := bhv2.Open("session.bhv2")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	for {
//	    name, err := f.NextName()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    if !strings.HasPrefix(name, "Trial") {
//	        if err := f.SkipValue(); err != nil {
//	            return err
//	        }
//	        continue
//	    }
//	    v, err := f.ReadValueSelective("TrialError", "Condition")
//	    ...
//	}
//
// Files compressed as a whole (.zst, .zstd, .s2, .lz4 extensions) are
// decompressed transparently on Open.
//
// A File is not safe for concurrent use; independent Files over different
// paths share no state and may be used from different goroutines freely.
//
// Subpackages: codec implements the recursive binary value codec, value the
// decoded tree model, format the closed element-kind registry, trial the
// MonkeyLogic trial iteration layer, and query a dot-path query language
// over decoded values.
package bhv2
