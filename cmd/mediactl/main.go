package main

import "restaurant-media-organizer/cmd/mediactl/cmd"

func main() {
	cmd.Execute()
}
