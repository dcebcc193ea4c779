package main

import "github.com/LegacyCodeHQ/fence/cmd"

func main() {
	cmd.Execute()
}
