// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sheet/doc.go
// Summary: Package overview.

// Package sheet is the headless interaction core of a spreadsheet grid:
// range selection, tab-separated clipboard transfer and the fill handle.
// It holds no terminal state; texelui/widgets.GridView renders a Controller
// and feeds it pointer and key events.
package sheet
