package cmd

import (
	"fmt"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`
}

func (c *CompletionCmd) Run(cli *CLI) error {
	switch c.Shell {
	case "bash":
		return c.generateBash()
	case "zsh":
		return c.generateZsh()
	case "fish":
		return c.generateFish()
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", c.Shell)
	}
}

func (c *CompletionCmd) generateBash() error {
	script := `# bash completion for paramexport

_paramexport_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="run plan show version completion"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    # Session-taking commands complete YAML files
    if [[ ${COMP_WORDS[1]} == "run" || ${COMP_WORDS[1]} == "plan" || ${COMP_WORDS[1]} == "show" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="-v --verbose --raw -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml)' -- ${cur}) )
        fi
        return 0
    fi

    # Options for completion command
    if [[ ${COMP_WORDS[1]} == "completion" ]]; then
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            opts="bash zsh fish"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        fi
        return 0
    fi
}

complete -F _paramexport_completions paramexport
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateZsh() error {
	script := `#compdef paramexport

_paramexport() {
    local -a commands
    commands=(
        'run:Execute a batch export session'
        'plan:Show the work list of a session without exporting'
        'show:Show a session and its design document'
        'version:Show version information'
        'completion:Generate shell completion script'
    )

    local -a session_opts
    session_opts=(
        '(-h --help)'{-h,--help}'[Show help]'
        '*:session file:_files -g "*.{yaml,yml}"'
    )

    local -a completion_shells
    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                run|plan)
                    _arguments $session_opts
                    ;;
                show)
                    _arguments '--raw[Dump the session file with syntax highlighting]' $session_opts
                    ;;
                completion)
                    _describe 'shell' completion_shells
                    ;;
                version)
                    _arguments '(-h --help)'{-h,--help}'[Show help]'
                    ;;
            esac
            ;;
    esac
}

_paramexport
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateFish() error {
	script := `# fish completion for paramexport

# Main commands
complete -c paramexport -f -n "__fish_use_subcommand" -a "run" -d "Execute a batch export session"
complete -c paramexport -f -n "__fish_use_subcommand" -a "plan" -d "Show the work list of a session without exporting"
complete -c paramexport -f -n "__fish_use_subcommand" -a "show" -d "Show a session and its design document"
complete -c paramexport -f -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c paramexport -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# session commands take YAML files
complete -c paramexport -n "__fish_seen_subcommand_from run plan show" -a "(__fish_complete_suffix .yaml)" -d "Session file"
complete -c paramexport -n "__fish_seen_subcommand_from run plan show" -a "(__fish_complete_suffix .yml)" -d "Session file"
complete -c paramexport -f -n "__fish_seen_subcommand_from show" -l raw -d "Dump the session file with syntax highlighting"
complete -c paramexport -f -n "__fish_seen_subcommand_from run plan show" -s h -l help -d "Show help"

# completion command options
complete -c paramexport -f -n "__fish_seen_subcommand_from completion" -a "bash" -d "Generate bash completion"
complete -c paramexport -f -n "__fish_seen_subcommand_from completion" -a "zsh" -d "Generate zsh completion"
complete -c paramexport -f -n "__fish_seen_subcommand_from completion" -a "fish" -d "Generate fish completion"

# version command options
complete -c paramexport -f -n "__fish_seen_subcommand_from version" -s h -l help -d "Show help"
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) Help() string {
	return `
Generate shell completion scripts for paramexport.

Examples:
  # Bash
  paramexport completion bash > /etc/bash_completion.d/paramexport

  # Zsh
  paramexport completion zsh > ~/.zsh/completion/_paramexport

  # Fish
  paramexport completion fish > ~/.config/fish/completions/paramexport.fish
`
}
