// Command yangdata parses and re-emits YANG-modeled XML/JSON instance
// data against a set of YANG modules.
package main

func main() {
	Execute()
}
