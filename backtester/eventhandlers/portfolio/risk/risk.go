package risk

import (
	"fmt"
	"strings"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
)

// ParseCashPolicy returns the cash policy matching s. An empty string is
// the reject policy
func ParseCashPolicy(s string) (CashPolicy, error) {
	switch CashPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Reject:
		return Reject, nil
	case Unconstrained:
		return Unconstrained, nil
	}
	return "", fmt.Errorf("%w %q", errUnknownCashPolicy, s)
}

// New returns a risk evaluator for the named cash policy
func New(policy string, allowShort bool) (*Risk, error) {
	p, err := ParseCashPolicy(policy)
	if err != nil {
		return nil, err
	}
	return &Risk{CashPolicy: p, AllowShort: allowShort}, nil
}

// EvaluateOrder checks whether a proposed order may be placed
func (r *Risk) EvaluateOrder(p *Proposal) error {
	if p.Buying {
		if p.EstimatedCost.GreaterThan(p.ProjectedCash) {
			if r.CashPolicy != Unconstrained {
				return fmt.Errorf("%w: %s costs %v with %v available", ErrInsufficientCash, p.Symbol, p.EstimatedCost, p.ProjectedCash)
			}
			log.Warnf(log.Portfolio, "%s buy of %v costs %v and will take cash negative from %v", p.Symbol, p.Quantity, p.EstimatedCost, p.ProjectedCash)
		}
		return nil
	}
	if !r.AllowShort && p.Quantity.GreaterThan(p.ProjectedPosition) {
		return fmt.Errorf("%w: %s sell of %v exceeds position %v", ErrShortSellingDisallowed, p.Symbol, p.Quantity, p.ProjectedPosition)
	}
	return nil
}
