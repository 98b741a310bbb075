package mcpserver

// StorageLayoutContract describes the vault layout that MCP consumers should
// assume when reading or writing documents.
const StorageLayoutContract = `# Munin Vault Storage Layout

Munin persists every document as one JSON file:

    <documents root>/<directory>/<name>.json

## Rules

1. **Names never carry an extension.** Pass ` + "`" + `User` + "`" + `, not ` + "`" + `User.json` + "`" + `;
   the ` + "`" + `.json` + "`" + ` suffix is appended by the vault.
2. **The directory is optional.** An empty directory argument selects the
   configured default directory.
3. **Content is a single JSON value.** Bodies are compacted before storage,
   so formatting is not preserved.
4. **Saves overwrite.** There is no versioning; the last write wins.
5. **Bundle restores overwrite too.** ` + "`" + `restore_document` + "`" + ` replaces any local
   version with the copy shipped in the application bundle.
6. **Reads fall back to the bundle.** A document absent from the vault is
   restored from the bundle automatically when the bundle contains it.
7. **Names and directories are English identifiers** (Latin characters, no
   path separators). Document values may use any language.
`
