// Package shell builds command lines that carry secrets safely. Fragments
// render two ways: String() masks every secret for display and logging,
// Reveal() (RevealArgs() for a whole SpaceDelimited command line) returns
// the clear value and is called only at the OS hand-off.
package shell
