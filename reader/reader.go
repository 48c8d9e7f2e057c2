// Package reader loads the exports table embedded in a compiled AdaN
// library.
package reader

import (
	"fmt"

	"github.com/coreos/pkg/dlopen"
)

// #include <stdlib.h>
import "C"

// ReadExports opens the shared library at path and returns the JSON stored
// in the named symbol.
func ReadExports(path, symbol string) (string, error) {
	handle, err := dlopen.GetHandle([]string{path})
	if err != nil {
		return "", err
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(symbol)
	if err != nil {
		return "", fmt.Errorf("%s is not an AdaN library: %w", path, err)
	}

	return C.GoString((*C.char)(sym)), nil
}
