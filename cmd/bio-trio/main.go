package main

import "github.com/grailbio/haplograph/cmd/bio-trio/cmd"

func main() {
	cmd.Run()
}
