// Package main はアプリケーションのエントリーポイントを提供します。
package main

import "github.com/stsysd/niwa/cmd"

func main() {
	cmd.Execute()
}
