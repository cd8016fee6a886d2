// Package maven reads dependency metadata from and downloads artifacts out of
// Maven-layout repositories such as Maven Central.
//
// # Metadata
//
// [Client] implements graph.Source. For a coordinate it fetches the POM
// (group/path/name/version/name-version.pom) from the first repository that
// has it and returns the declared dependencies with:
//
//   - ${...} properties expanded from <properties> and project.* values
//   - parent POM properties and dependency management inherited
//   - versions and scopes filled from dependency management, including
//     imported BOMs
//   - exclusions carried on each edge
//
// Dependencies whose version stays unresolved are logged and skipped.
//
// # Artifacts
//
// [Transport] stores artifact files under a local directory using the same
// layout as the remote repository. Existing files are reused, so re-running
// a fetch is cheap.
package maven
