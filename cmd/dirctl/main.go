// Command dirctl inspects and extracts legacy Director archives.
package main

func main() {
	execute()
}
