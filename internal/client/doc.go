// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the pimsync application runtime.
//
// It wires the device link, the PC backend, the four bundled conduits and
// the background workers into a single process lifecycle: a one-shot sync,
// a state reset, or a daemon that syncs on a schedule and when the file
// backend changes.
package client
