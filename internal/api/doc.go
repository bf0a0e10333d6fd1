// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the one-shot HTTP client for the NeuroGO backend.
//
// It covers the health endpoint, the command-processing endpoint and a
// generic probe used for diagnostics. Requests carry no timeout unless one is
// configured; a hung backend leaves the caller waiting on its context.
//
// # Usage
//
//	c := api.New("http://localhost:8080").WithLogger(logger)
//	res, err := c.Process(ctx, "list providers")
//	if err != nil {
//	    // transport or decode failure
//	}
//	if res.Failed() {
//	    fmt.Println("Error:", res.Error)
//	}
package api
