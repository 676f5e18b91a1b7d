package v1

import "fmt"

// ConfigMapPrefix prefixes every config-map the operator renders for an installation.
const ConfigMapPrefix = "chi"

// CommonConfigDName returns the name of the shared config.d config-map of an installation.
func CommonConfigDName(chi string) string {
	return fmt.Sprintf("%s-%s-common-configd", ConfigMapPrefix, chi)
}

// CommonUsersDName returns the name of the shared users.d config-map of an installation.
func CommonUsersDName(chi string) string {
	return fmt.Sprintf("%s-%s-common-usersd", ConfigMapPrefix, chi)
}

// CommonConfigDKeys are the configuration fragments every installation's config.d must carry.
func CommonConfigDKeys() []string {
	return []string{
		"01-clickhouse-listen.xml",
		"02-clickhouse-logger.xml",
		"03-clickhouse-querylog.xml",
	}
}

// CommonUsersDKeys are the configuration fragments every installation's users.d must carry.
func CommonUsersDKeys() []string {
	return []string{
		"01-clickhouse-user.xml",
		"02-clickhouse-default-profile.xml",
	}
}
