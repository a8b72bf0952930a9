package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigMemoPrefix = ConfigPrefix + delimiter + "memo"

	ConfigMemoKeyMode    = ConfigMemoPrefix + delimiter + "key_mode"
	ConfigMemoThreadMode = ConfigMemoPrefix + delimiter + "thread_mode"
	ConfigMemoLifetime   = ConfigMemoPrefix + delimiter + "lifetime"

	ConfigMemoTablePrefix     = ConfigMemoPrefix + delimiter + "table"
	ConfigMemoTableMaxEntries = ConfigMemoTablePrefix + delimiter + "max_entries"
)
