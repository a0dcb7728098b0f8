package market

import "github.com/wazoplugind/wazo-plugind/internal/domain/version"

// Annotate sets InstalledVersion from lookup and, per version row, computes
// Upgradable: a row is upgradable unless the host is outside the row's
// [min, max] bound, or the plugin is already installed at a version greater
// than or equal to the row's version.
func Annotate(entries []Entry, hostVersion string, lookup InstalledVersionLookup) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		installedVersion, installed := lookup(e.Namespace, e.Name)
		if installed {
			e.InstalledVersion = installedVersion
		} else {
			e.InstalledVersion = ""
		}

		rows := make([]VersionRow, len(e.Versions))
		for j, row := range e.Versions {
			row.Upgradable = rowUpgradable(row, hostVersion, installedVersion, installed)
			rows[j] = row
		}
		e.Versions = rows
		out[i] = e
	}
	return out
}

func rowUpgradable(row VersionRow, hostVersion, installedVersion string, installed bool) bool {
	if row.MinWazoVersion != "" && version.LessThan(hostVersion, row.MinWazoVersion) {
		return false
	}
	if row.MaxWazoVersion != "" && version.GreaterThan(hostVersion, row.MaxWazoVersion) {
		return false
	}
	if installed && !version.LessThan(installedVersion, row.Version) {
		return false
	}
	return true
}
