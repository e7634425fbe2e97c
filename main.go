package main

import "github.com/linlinbupt123-crypto/hdwallet_service/cmd"

func main() {
	cmd.Execute()
}
