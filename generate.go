//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/locrecon --repository.default-branch main --repository.path /

package locrecon
