package main

import "github.com/oshokin/tegra-otatools/cmd/ota-firmware/cmd"

func main() {
	cmd.Execute()
}
