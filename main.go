/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/QinCai-rui/mdllama/cmd"

func main() {
	cmd.Execute()
}
