// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the client:
// conversations, messages, and the user profile.
//
// Messages carry a Provenance tag distinguishing locally synthesized
// (pending) records from server-confirmed ones; see message.go.
package model
