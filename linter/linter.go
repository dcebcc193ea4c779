// Package linter checks every configured contract against a freshly built import graph.
package linter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/fence/builder"
	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/contract"
	"github.com/sirupsen/logrus"
)

// ErrContractsBroken is returned by Report.Err when at least one contract is broken.
var ErrContractsBroken = errors.New("contracts broken")

// ContractResult is the outcome of one contract.
type ContractResult struct {
	Name             string                      `json:"name" yaml:"name"`
	Type             contract.Type               `json:"type" yaml:"type"`
	Kept             bool                        `json:"kept" yaml:"kept"`
	InvalidChains    []contract.ViolationGroup   `json:"invalid_chains,omitempty" yaml:"invalid_chains,omitempty"`
	UnmatchedIgnores []contract.ImportExpression `json:"unmatched_ignore_imports,omitempty" yaml:"unmatched_ignore_imports,omitempty"`
	// Details is the human-readable explanation of a broken contract.
	Details string `json:"-" yaml:"-"`
}

// GraphStats summarizes the graph the contracts were checked against.
type GraphStats struct {
	Modules int `json:"modules" yaml:"modules"`
	Imports int `json:"imports" yaml:"imports"`
}

// Report is the outcome of a lint run.
type Report struct {
	Graph     GraphStats       `json:"graph" yaml:"graph"`
	Contracts []ContractResult `json:"contracts" yaml:"contracts"`
	Kept      int              `json:"kept" yaml:"kept"`
	Broken    int              `json:"broken" yaml:"broken"`
	Warnings  []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Err returns ErrContractsBroken if any contract is broken.
func (r *Report) Err() error {
	if r.Broken > 0 {
		return fmt.Errorf("%w: %d of %d", ErrContractsBroken, r.Broken, len(r.Contracts))
	}
	return nil
}

// Run builds the import graph described by cfg and checks each contract in declaration order.
// The first contract that fails to check aborts the run.
func Run(cfg *config.Config, b builder.GraphBuilder, logger logrus.FieldLogger) (*Report, error) {
	defs, err := cfg.Definitions()
	if err != nil {
		return nil, err
	}

	contracts := make([]contract.Contract, 0, len(defs))
	for _, def := range defs {
		c, err := contract.New(def)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}

	graph, err := b.Build(cfg.RootPackages, cfg.IncludeExternalPackages)
	if err != nil {
		return nil, fmt.Errorf("failed to build import graph: %w", err)
	}

	rep := &Report{
		Graph: GraphStats{Modules: graph.ModuleCount(), Imports: graph.ImportCount()},
	}
	logger.WithFields(logrus.Fields{
		"modules": rep.Graph.Modules,
		"imports": rep.Graph.Imports,
	}).Debug("built import graph")

	for _, c := range contracts {
		check, err := c.Check(graph)
		if err != nil {
			return nil, fmt.Errorf("failed to check contract %q: %w", c.Name(), err)
		}

		result := ContractResult{
			Name:             c.Name(),
			Type:             c.Type(),
			Kept:             check.Kept,
			InvalidChains:    check.InvalidChains,
			UnmatchedIgnores: check.UnmatchedIgnores,
		}

		for _, expr := range check.UnmatchedIgnores {
			warning := fmt.Sprintf("No matches for ignored import %s in contract %q.", expr, c.Name())
			rep.Warnings = append(rep.Warnings, warning)
			logger.WithField("contract", c.Name()).Warn(warning)
		}

		if check.Kept {
			rep.Kept++
		} else {
			rep.Broken++
			var buf bytes.Buffer
			if err := c.RenderBroken(&buf, check); err != nil {
				return nil, fmt.Errorf("failed to render contract %q: %w", c.Name(), err)
			}
			result.Details = buf.String()
		}

		logger.WithFields(logrus.Fields{
			"contract": c.Name(),
			"kept":     check.Kept,
			"groups":   len(check.InvalidChains),
		}).Debug("checked contract")

		rep.Contracts = append(rep.Contracts, result)
	}

	return rep, nil
}
