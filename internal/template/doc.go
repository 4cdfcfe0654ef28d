// Package template materializes new projects from framework templates.
//
// A template is a directory named after its framework under a templates root.
// It holds a config-template.yaml base configuration and the files copied
// verbatim into the project. Applying a template creates the scaffold
// directories, copies the files, writes dev-session-buddy.yaml with the
// preset applied and runs any framework post-processing, such as writing a
// package.json for Vue projects.
//
// Usage:
//
//	mgr := template.NewManager(template.NewLocator(root))
//	if err := mgr.Apply("/path/to/app", "vue", "team"); err != nil {
//	    // err is a TemplateApplicationError
//	}
package template
