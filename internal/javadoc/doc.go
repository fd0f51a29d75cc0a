// Package javadoc runs the documentation generator for a Java project and
// writes its HTML output beneath the project root.
package javadoc
