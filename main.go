package main

import "github.com/inovacc/orgclone/cmd"

func main() {
	cmd.Execute()
}
