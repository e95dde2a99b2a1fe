// Package classify maps file paths to category names based on file
// extension.
//
// The Table is an ordered list of categories built once at startup and
// read-only afterwards; iteration order decides ties when extension sets
// overlap. The final category ("others") carries no extensions and catches
// everything the earlier categories do not claim, including files without
// an extension.
package classify
