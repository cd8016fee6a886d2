// Package resolve turns root coordinates into files on disk.
//
// A [Resolver] ties together the pieces of a run:
//
//  1. Collect: build the dependency tree with graph.Collect, pruned by the
//     configured selector
//  2. Print: render the tree for the log
//  3. Fetch: download every artifact of the tree through a [Transport]
//  4. Attachments: optionally fetch javadoc/sources companions
//
// [Resolver.Run] processes a batch of roots. Each root is isolated: a
// malformed coordinate, missing metadata or failed download ends that root
// only, and the batch continues with the next one. Missing attachments are
// warnings and never fail a root.
//
// Roots run one after another by default. With [Options.Parallel] they run
// concurrently; outcomes are still returned in input order and each tree is
// logged as one block.
package resolve
