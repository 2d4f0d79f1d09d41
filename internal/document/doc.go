// Package document defines the unit of content flowing through the build
// pipeline and the tagged source a build starts from.
//
// A Document is a value. Its helpers return modified copies, so a document
// handed out by the factory can never be changed behind the cache's back.
package document
