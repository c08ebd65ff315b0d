// Tagscope - Multi-environment cloud tag inventory
package main

func main() {
	Execute()
}
