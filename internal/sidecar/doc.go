// Package sidecar attaches optional transcript side-files to finished
// episodes by filesystem naming convention.
package sidecar
