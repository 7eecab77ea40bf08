package app

import (
	"github.com/specialistvlad/nanopost/internal/registry"
	"github.com/specialistvlad/nanopost/modules/crab"
	"github.com/specialistvlad/nanopost/modules/dryrun"
)

// coreModules is the definitive list of all modules that are compiled into
// the nanopost binary.
var coreModules = []registry.Module{
	&crab.Module{},
	&dryrun.Module{},
}
