//go:build cgo

package main

// cgoEnabled reports whether MuPDF is linked statically through cgo.
const cgoEnabled = true
