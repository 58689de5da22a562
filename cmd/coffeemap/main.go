// Command coffeemap turns a coffee tasting sheet into map layers, serves
// them over HTTP, and extracts tasting fields from label text.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
