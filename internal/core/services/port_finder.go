package services

import (
	"fmt"
	"net"
)

// FindAvailablePort returns the first free loopback port in the
// inclusive range. Used for the Google sign-in callback server.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			continue
		}
		listener.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
