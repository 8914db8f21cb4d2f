package analyzer

type domainKeyword struct {
	domain   string
	keywords []string
}

// domainKeywords 领域关键词表。顺序固定，决定同分领域的发现顺序；只读
var domainKeywords = []domainKeyword{
	{"web", []string{"web", "frontend", "backend", "fullstack", "react", "vue", "angular", "node", "express"}},
	{"mobile", []string{"mobile", "android", "ios", "react-native", "flutter", "swift", "kotlin"}},
	{"ai", []string{"ai", "machine-learning", "deep-learning", "neural", "tensorflow", "pytorch"}},
	{"blockchain", []string{"blockchain", "crypto", "web3", "ethereum", "solidity", "smart-contract"}},
	{"gamedev", []string{"game", "unity", "unreal", "godot", "gaming"}},
	{"devops", []string{"devops", "docker", "kubernetes", "ci-cd", "terraform", "ansible"}},
	{"datascience", []string{"data-science", "data-analysis", "pandas", "numpy", "jupyter"}},
	{"security", []string{"security", "cybersecurity", "penetration", "encryption"}},
}
