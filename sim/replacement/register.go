// register.go wires sim/replacement constructors into the sim package's
// registration variable (NewReplacementPolicyFunc). This init() runs when any
// package imports sim/replacement, breaking the import cycle between sim/
// (interface owner) and sim/replacement/ (implementations). Production code
// imports sim/replacement directly; test code in package sim uses
// replacement_import_test.go for the blank import.
package replacement

import "github.com/pagesim/pagesim/sim"

func init() {
	sim.NewReplacementPolicyFunc = New
}
