// amiguard - public-AMI remediation for Auto Scaling Groups
// Detect. Terminate. Report.
package main

import (
	"os"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
