package main

import "github.com/muntasir-islam/seo-audit-tool/cmd"

// execCmd is swappable so main stays testable.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
