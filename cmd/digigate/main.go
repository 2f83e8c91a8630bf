// Package main is the entry point for digigate, the transaction
// authorization gateway.
package main

func main() {
	Execute()
}
