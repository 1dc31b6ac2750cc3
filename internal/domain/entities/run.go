package entities

import "time"

// RunSummary aggregates one invocation.
type RunSummary struct {
	Files    int
	Adopted  int
	Warnings int
	Paths    []string
	Date     time.Time
}

// PackMeta is the resource pack descriptor written next to the merged tree.
type PackMeta struct {
	Pack PackInfo `json:"pack"`
}

type PackInfo struct {
	PackFormat  int    `json:"pack_format"`
	Description string `json:"description"`
}
