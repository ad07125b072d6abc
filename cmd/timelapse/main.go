package main

import "github.com/forPelevin/timelapse/internal/cli"

func main() { cli.Main() }
