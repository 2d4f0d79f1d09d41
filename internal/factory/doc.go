// Package factory builds documents from a source and a plugin chain.
//
// Every build is memoized on the source identity and the chain's plugin
// names, so a document referenced from several places is produced once per
// run. Templates request nested documents through the same factory; passing
// the plugin context along lets the factory detect a document that depends
// on itself.
package factory
