// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package providers derives provider state from the backend's prose replies.
//
// The backend has no structured provider endpoint. The provider list and the
// current provider are scraped from the human-readable answers to the
// "list providers" and "current provider" commands. Any wording change on the
// backend silently degrades detection; the Source interface keeps the scraper
// behind a seam so a structured source can replace it.
//
// # Key Types
//
//   - Current: the active provider token or the auto sentinel
//   - Badge: availability of one known provider id
//   - Source: anything that can report the provider list and current provider
//   - TextSource: the prose-scraping Source
package providers
