// bridgectl is the maintenance tool for the motion-to-MIDI bridge
// configuration store.
package main

func main() {
	execute()
}
