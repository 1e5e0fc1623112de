// Package catalog defines artists and artist types and binds them to the
// generic crud controller.
package catalog
