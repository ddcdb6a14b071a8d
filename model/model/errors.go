package model

import "errors"

// Invariant violations surfaced by the sync engine. These are distinct from
// expected empty-result outcomes, which are logged and treated as success.
var CompanyNotResolvedError = errors.New("No company could be resolved for the deal.")
var OriginalDealNotFoundError = errors.New("No original deal found with the derived name.")
var AmbiguousOriginalDealError = errors.New("Multiple original deals found with the derived name.")
