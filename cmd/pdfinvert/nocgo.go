//go:build !cgo

package main

// cgoEnabled reports whether MuPDF is linked statically through cgo.
// Without cgo, go-fitz loads a shared libmupdf at run time.
const cgoEnabled = false
