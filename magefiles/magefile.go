// Package main provides build targets for the tlog project using Mage.
//
// Usage:
//
//	mage build             Compile the tlog binary to bin/
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests (exclude integration)
//	mage test:integration  Run only integration tests (builds first)
//	mage test:cover        Run unit tests with a coverage profile
//	mage lint              Run golangci-lint
//	mage vet               Run go vet
//	mage clean             Remove build artifacts
//	mage install           Install tlog to GOPATH/bin
//	mage seed              Build, then fill a scratch database with fake data
//	mage stats             Print Go LOC per package
package main
