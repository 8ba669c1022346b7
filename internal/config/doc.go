// Package config resolves the settings for one run from flags, TSUP_INIT_*
// environment variables, npm_config_user_agent and the optional
// .tsup-init.yaml options file in the target directory. The result is a
// plain Config value handed to the pipeline, which never reads process-wide
// state on its own.
package config
