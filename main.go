package main

import "github.com/josephlewis42/xvsh/cmd"

func main() {
	cmd.Execute()
}
