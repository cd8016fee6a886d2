// Package pkg holds the libraries behind depfetch.
//
// # Overview
//
// depfetch resolves the transitive dependencies of Maven artifacts, prints
// the resolved tree and downloads every artifact into a local repository.
// The packages are organized as:
//
//  1. Model: [artifact] (coordinates, scopes, exclusions), [repository]
//     (ordered repository list), [selector] (edge acceptance policies)
//  2. Graph: [graph] (collection of the pruned tree), [render/tree] (ASCII
//     and Unicode printing), [render/dot] (Graphviz export)
//  3. Transport: [integrations] (HTTP client), [integrations/maven] (POM
//     metadata and artifact downloads), [cache] (POM cache)
//  4. Orchestration: [resolve] (collect, print, fetch, attachments, batches)
//  5. Surfaces: [config], [report], [server], [observability]
//
// # Data Flow
//
//	coordinate
//	     ↓
//	[graph].Collect  ← [integrations/maven].Client (POM metadata)
//	     ↓              [selector] (scope, optional, exclusions)
//	[render/tree]    → log
//	     ↓
//	[resolve]        → [integrations/maven].Transport (local repository)
//	     ↓
//	[report]         → JSON files / MongoDB
package pkg
