// Package config loads depfetch settings.
//
// Three inputs are supported:
//
//   - depfetch.toml: repositories, selector policy, local repository,
//     cache, report and server settings ([Load])
//   - dependencies.json: the roots to fetch, as a list of
//     {groupId, artifactId, classifier, extension, version} objects
//     ([LoadDependencies])
//   - extra-repos.json: repositories to register after Maven Central, as a
//     list of {id, repourl} objects ([LoadExtraRepositories])
//
// Command-line flags override values from the TOML file, which override
// the defaults returned by [Default].
package config
