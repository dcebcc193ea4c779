package catalog

func Names() []string {
	return []string{"widget"}
}
