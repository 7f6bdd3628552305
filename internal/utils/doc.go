// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the Viper backed ConfigurationLoader, the zap LoggerFactory with
// optional lumberjack rotation, and small command plumbing such as the
// CommandContextAccessor and FlushingWriter.
package utils
