// Package textutil sanitizes user-supplied titles into safe path and key
// segments shared by the download, store, and sidecar naming conventions.
package textutil
