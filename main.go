package main

import "github.com/earoland/Basic-Shell/cmd"

func main() {
	cmd.Execute()
}
