package main

import (
	"encoding/json"
	"io"

	"github.com/nextlevelbuilder/cronus/internal/ipcsock"
	"github.com/nextlevelbuilder/cronus/pkg/client"
)

func jsonEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

func sockPath() string {
	return ipcsock.Addr(svcPath, svcName)
}

func dialOrNotRunning() (*client.Client, bool) {
	c, err := client.Dial(sockPath())
	if err != nil {
		return nil, false
	}
	return c, true
}
