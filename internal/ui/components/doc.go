// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the display components of the NeuroGO chat
screen, built on Lip Gloss.

Header (header.go) - Title, connection indicator, API health, current
provider, and one availability badge per known provider.

StatusBar (statusbar.go) - Loading spinner and key hints.

Both components take plain values so they can be rendered without a live
session; the chat model copies session state into them before each View.
*/
package components
