/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package traverse

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// dispatchFile opens absPath (a plain-filesystem file already known to be
// in scope) and routes it to the classfile handler or a matching pattern
// handler (spec §4.4's per-file dispatch), guaranteeing the stream is
// closed on every exit path.
func (e *Engine) dispatchFile(absPath, relPath string) error {
	if strings.HasSuffix(strings.ToLower(relPath), ".class") {
		if e.OnClassfile == nil {
			return nil
		}
		data, err := afero.ReadFile(e.Fs, absPath)
		if err != nil {
			return errors.Wrapf(err, "traverse: reading %s", absPath)
		}
		return e.OnClassfile(absPath, relPath, data)
	}

	matcher, ok := e.matchPattern(relPath)
	if !ok {
		return nil
	}
	f, err := e.Fs.Open(absPath)
	if err != nil {
		return errors.Wrapf(err, "traverse: opening %s", absPath)
	}
	defer f.Close()
	return matcher.Handler(absPath, relPath, f)
}
