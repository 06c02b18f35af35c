package mitre

// DefaultTechniques returns the built-in technique set. Each call returns a fresh slice.
func DefaultTechniques() []Technique {
	return []Technique{
		// Reconnaissance / discovery
		{
			ID:          "T1046",
			Name:        "Network Service Discovery",
			Tactic:      "Discovery",
			Description: "Port and network service scanning to identify potential targets",
			Severity:    7,
			Indicators: []string{
				"port scan", "service scan", "network scanning", "ports/sec", "nmap", "masscan",
			},
			Recommendations: []string{
				"Block the source IP at the perimeter firewall",
				"Switch the IPS to prevention mode",
				"Reduce the attack surface (close unused ports)",
				"Configure rate limiting on the firewall",
				"Review logs for exploitation attempts",
			},
		},
		{
			ID:            "T1595",
			Name:          "Active Scanning",
			Tactic:        "Reconnaissance",
			Description:   "Active reconnaissance of target infrastructure through scanning",
			Severity:      6,
			SubTechniques: []string{"T1595.001", "T1595.002"},
			Indicators: []string{
				"scanning activity", "reconnaissance", "enumeration", "probing",
			},
			Recommendations: []string{
				"Identify and block scanning sources",
				"Deploy honeypots to detect reconnaissance",
				"Monitor distributed scanning patterns",
			},
		},

		// Credential access
		{
			ID:            "T1110",
			Name:          "Brute Force",
			Tactic:        "Credential Access",
			Description:   "Repeated login attempts to guess credentials",
			Severity:      9,
			SubTechniques: []string{"T1110.001", "T1110.002", "T1110.003", "T1110.004"},
			Indicators: []string{
				"brute force", "multiple failed", "failed login", "authentication failure",
				"failed attempts", "rapid attempts", "login attempts",
			},
			Recommendations: []string{
				"Block the source IP at the firewall immediately",
				"Deploy fail2ban or an equivalent",
				"Check logs for successful attempts",
				"Enable multi-factor authentication (MFA)",
				"Configure an account lockout policy",
				"Escalate to the IR team if a successful login is found",
			},
		},
		{
			ID:            "T1078",
			Name:          "Valid Accounts",
			Tactic:        "Credential Access",
			Description:   "Use of compromised legitimate accounts",
			Severity:      8,
			SubTechniques: []string{"T1078.001", "T1078.002", "T1078.003", "T1078.004"},
			Indicators: []string{
				"compromised account", "stolen credentials", "valid account", "legitimate credentials",
			},
			Recommendations: []string{
				"Revoke the compromised credentials immediately",
				"Force a password reset",
				"Audit all recent access by the account",
				"Enforce MFA on every account",
			},
		},
		{
			ID:            "T1555",
			Name:          "Credentials from Password Stores",
			Tactic:        "Credential Access",
			Description:   "Extraction of credentials from password managers",
			Severity:      8,
			SubTechniques: []string{"T1555.001", "T1555.002", "T1555.003"},
			Indicators: []string{
				"credential harvesting", "password dump", "credential extraction", "keychain access",
			},
			Recommendations: []string{
				"Encrypt every password store",
				"Monitor access to credential managers",
				"Enable credential dumping protection",
			},
		},

		// Lateral movement
		{
			ID:            "T1021",
			Name:          "Remote Services",
			Tactic:        "Lateral Movement",
			Description:   "Use of remote services to move through the network",
			Severity:      8,
			SubTechniques: []string{"T1021.001", "T1021.002", "T1021.004", "T1021.006"},
			Indicators: []string{
				"lateral movement", "remote access", "internal movement", "rdp", "ssh lateral", "smb connection",
			},
			Recommendations: []string{
				"Segment the network (VLAN, micro-segmentation)",
				"Adopt a Zero Trust architecture",
				"Monitor cross-segment connections",
				"Disable unneeded remote services",
				"Audit privileged access",
			},
		},

		// Exfiltration
		{
			ID:          "T1041",
			Name:        "Exfiltration Over C2 Channel",
			Tactic:      "Exfiltration",
			Description: "Data exfiltration through the command and control channel",
			Severity:    10,
			Indicators: []string{
				"data exfiltration", "large transfer", "unusual outbound", "suspicious upload", "gb transferred",
			},
			Recommendations: []string{
				"Block the C2 channel immediately",
				"Isolate the compromised system from the network",
				"Identify the exfiltrated data",
				"Start a full forensic investigation",
				"Notify the legal team and the CISO",
				"Deploy DLP (Data Loss Prevention)",
			},
		},
		{
			ID:            "T1048",
			Name:          "Exfiltration Over Alternative Protocol",
			Tactic:        "Exfiltration",
			Description:   "Exfiltration through alternative protocols (DNS, ICMP, etc.)",
			Severity:      9,
			SubTechniques: []string{"T1048.001", "T1048.002", "T1048.003"},
			Indicators: []string{
				"dns tunneling", "icmp exfiltration", "alternative protocol", "covert channel",
			},
			Recommendations: []string{
				"Monitor abnormal DNS/ICMP traffic",
				"Block protocols that are not business critical",
				"Enable deep packet inspection",
			},
		},

		// Execution
		{
			ID:            "T1059",
			Name:          "Command and Scripting Interpreter",
			Tactic:        "Execution",
			Description:   "Execution of malicious system commands or scripts",
			Severity:      8,
			SubTechniques: []string{"T1059.001", "T1059.003", "T1059.004"},
			Indicators: []string{
				"command execution", "shell execution", "script execution", "powershell", "bash", "cmd.exe", "commands/min",
			},
			Recommendations: []string{
				"Block or monitor script execution",
				"Enforce application allowlisting",
				"Monitor suspicious parent processes",
				"Enable detailed PowerShell/bash logging",
				"Restrict execution privileges",
			},
		},

		// Initial access
		{
			ID:          "T1190",
			Name:        "Exploit Public-Facing Application",
			Tactic:      "Initial Access",
			Description: "Exploitation of vulnerabilities in exposed web applications",
			Severity:    9,
			Indicators: []string{
				"sql injection", "web exploit", "application vulnerability", "injection attack", "rce", "remote code execution",
			},
			Recommendations: []string{
				"Patch the vulnerability immediately",
				"Deploy a WAF (Web Application Firewall)",
				"Run an application security audit",
				"Add input validation",
				"Isolate the compromised application",
			},
		},

		// Command and control
		{
			ID:            "T1071",
			Name:          "Application Layer Protocol",
			Tactic:        "Command and Control",
			Description:   "Use of application protocols for C2 (HTTP, DNS, etc.)",
			Severity:      8,
			SubTechniques: []string{"T1071.001", "T1071.002", "T1071.003", "T1071.004"},
			Indicators: []string{
				"anomalous api", "suspicious api activity", "c2 communication", "beaconing", "unusual http pattern", "req/sec",
			},
			Recommendations: []string{
				"Block identified C2 domains and IPs",
				"Analyze traffic for beaconing patterns",
				"Deploy a proxy with SSL inspection",
				"Monitor suspicious outbound connections",
				"Isolate compromised systems",
			},
		},
	}
}

// DefaultCatalog builds a catalog from DefaultTechniques
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultTechniques())
	if err != nil {
		panic("mitre: invalid built-in catalog: " + err.Error())
	}
	return c
}
