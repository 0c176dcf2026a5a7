// Package quals turns tree interpolants back into candidate predicates
// per k-variable, and decomposes candidates into typed atomic qualifier
// templates for the downstream fixed-point solver.
package quals
